// Package models holds the request and response bodies of the HTTP API.
package models

// Health models
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Service status"`
	Running bool   `json:"running" example:"true" doc:"Whether the sequencer loop is running"`
	Ticks   uint64 `json:"ticks" example:"1200" doc:"Patterns written since start"`
}

type HealthResponse struct {
	Body HealthData
}

// Version models
type VersionData struct {
	Version   string `json:"version" example:"dev" doc:"Application version"`
	GitCommit string `json:"git_commit" example:"abc1234" doc:"Git commit SHA"`
	BuildDate string `json:"build_date" example:"2025-01-27T10:30:00Z" doc:"Build timestamp"`
	GoVersion string `json:"go_version" example:"go1.24.0" doc:"Go compiler version"`
	Platform  string `json:"platform" example:"linux/arm64" doc:"Platform"`
}

type VersionResponse struct {
	Body VersionData
}

// Attribute models
type AttributeListData struct {
	Group      string            `json:"group" example:"led17" doc:"Attribute group name"`
	Attributes map[string]string `json:"attributes" doc:"Current value of every attribute"`
}

type AttributeListResponse struct {
	Body AttributeListData
}

type AttributeInput struct {
	Name string `path:"name" example:"mode" doc:"Attribute name (mode, period or blinkPeriod)"`
}

type AttributeData struct {
	Name  string `json:"name" example:"mode" doc:"Attribute name"`
	Value string `json:"value" example:"corre" doc:"Current value"`
}

type AttributeResponse struct {
	Body AttributeData
}

type AttributeStoreInput struct {
	Name string `path:"name" example:"period" doc:"Attribute name (mode, period or blinkPeriod)"`
	Body struct {
		Value string `json:"value" example:"500" doc:"Value to store, as written to the attribute file"`
	}
}

type AttributeStoreData struct {
	Name    string `json:"name" example:"period" doc:"Attribute name"`
	Value   string `json:"value" example:"500" doc:"Value in effect after the write"`
	Applied bool   `json:"applied" example:"true" doc:"Whether the written value was accepted"`
}

type AttributeStoreResponse struct {
	Body AttributeStoreData
}

// Log models
type LogsInput struct {
	Limit int `query:"limit" minimum:"0" maximum:"500" default:"100" doc:"Newest entries to return, 0 for all buffered"`
}

type LogEntry struct {
	Timestamp  string         `json:"timestamp" example:"2025-01-27T10:30:00.123Z" doc:"Log timestamp"`
	Level      string         `json:"level" example:"info" doc:"Log level"`
	Module     string         `json:"module" example:"sequencer" doc:"Source module"`
	Message    string         `json:"message" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured log attributes"`
}

type LogsData struct {
	Entries []LogEntry `json:"entries" doc:"Buffered log entries, oldest first"`
}

type LogsResponse struct {
	Body LogsData
}
