package models

// SettingsDocID is the fixed id of the singleton settings document.
const SettingsDocID = "app_settings"

// AppSettings is the singleton configuration document stored in the
// settings collection under SettingsDocID.
type AppSettings struct {
	ID                      string   `json:"id"`
	AppName                 string   `json:"appName"`
	AccentColor             string   `json:"accentColor,omitempty"`
	AppLogoURL              string   `json:"appLogoUrl,omitempty"`
	LoginBackgroundImageURL string   `json:"loginBackgroundImageUrl,omitempty"`
	SupervisorPhone         string   `json:"supervisorPhone,omitempty"`
	SupervisorEmail         string   `json:"supervisorEmail,omitempty"`
	ReportEmail             string   `json:"reportEmail,omitempty"`
	Vehicles                []string `json:"vehicles"`
	Theme                   string   `json:"theme,omitempty"`
	Language                string   `json:"language,omitempty"`
	AppVersion              string   `json:"appVersion,omitempty"`
	UpdateURL               string   `json:"updateUrl,omitempty"`
	UpdatedAt               string   `json:"updatedAt,omitempty"`
}

// DefaultSettings is the fallback used when the settings collection is
// empty or a delivery carries no settings document.
func DefaultSettings() AppSettings {
	return AppSettings{
		ID:          SettingsDocID,
		AppName:     "MedStock",
		AccentColor: "#dc2626",
		Vehicles:    []string{"RTW 1", "RTW 2", "NEF 1"},
		Theme:       "navy",
		Language:    "de",
		AppVersion:  "1.0.0",
	}
}
