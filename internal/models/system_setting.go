package models

import "time"

// SystemSetting is a key/value server setting. The active academic session
// ("active_session") lives here.
type SystemSetting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SettingActiveSession is the key holding the current academic year,
// e.g. "2024-25". Every write operation resolves against it.
const SettingActiveSession = "active_session"

// UpdateSettingRequest is the request body for changing a setting.
type UpdateSettingRequest struct {
	Value string `json:"value"`
}
