package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"medstock-backend/internal/config"
	"medstock-backend/internal/syncengine"
)

// Scheduler uploads periodic JSON snapshots of the full state to an
// S3-compatible bucket so a wiped station can be restored.
type Scheduler struct {
	cfg    config.BackupConfig
	engine *syncengine.Engine

	mu       sync.Mutex
	ticker   *time.Ticker
	stopChan chan bool
}

func NewScheduler(cfg config.BackupConfig, engine *syncengine.Engine) *Scheduler {
	return &Scheduler{cfg: cfg, engine: engine}
}

// Start launches the scheduler goroutine. The first backup is run
// immediately so a fresh deployment has a restore point right away.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker != nil {
		return // Already running
	}

	interval := time.Duration(s.cfg.IntervalHours) * time.Hour
	s.ticker = time.NewTicker(interval)
	s.stopChan = make(chan bool)

	go func() {
		log.Println("[Backup] Starting automatic backup scheduler")
		s.runBackup()

		for {
			select {
			case <-s.ticker.C:
				s.runBackup()
			case <-s.stopChan:
				log.Println("[Backup] Scheduler stopped")
				return
			}
		}
	}()

	log.Printf("[Backup] Scheduler started (interval: %v)", interval)
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker != nil {
		s.ticker.Stop()
		s.stopChan <- true
		s.ticker = nil
	}
}

// RunNow performs one backup outside the schedule, for the admin
// trigger endpoint.
func (s *Scheduler) RunNow(ctx context.Context) (string, error) {
	return s.upload(ctx)
}

func (s *Scheduler) runBackup() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	key, err := s.upload(ctx)
	if err != nil {
		log.Printf("[Backup] Failed: %v", err)
		return
	}
	log.Printf("[Backup] Success: %s", key)
}

func (s *Scheduler) upload(ctx context.Context) (string, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.cfg.AccessKey,
			s.cfg.SecretKey,
			"",
		)),
		awsconfig.WithRegion(s.cfg.Region),
	)
	if err != nil {
		return "", fmt.Errorf("configure s3 client: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if s.cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.cfg.Endpoint)
		}
	})

	snapshot := s.engine.Snapshot()
	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	key := fmt.Sprintf("snapshots/medstock_%s.json", time.Now().UTC().Format("20060102_150405"))
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("upload snapshot: %w", err)
	}
	return key, nil
}
