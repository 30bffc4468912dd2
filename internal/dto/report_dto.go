package dto

import "time"

// CouncilMemberInfo is one lecturer on the council, with their role label.
type CouncilMemberInfo struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Role  string `json:"role"`
}

// CouncilInfo summarises the committee that evaluated the session.
type CouncilInfo struct {
	Name    string              `json:"name"`
	Major   string              `json:"major"`
	Members []CouncilMemberInfo `json:"members"`
}

// GroupMemberInfo is one student in the defending group.
type GroupMemberInfo struct {
	Name string `json:"name"`
	Code string `json:"code"`
	Role string `json:"role"`
}

// GroupInfo summarises the defending project group.
type GroupInfo struct {
	Name         string            `json:"name"`
	ProjectTitle string            `json:"projectTitle"`
	Members      []GroupMemberInfo `json:"members"`
}

// SessionInfo carries the timing and location of the defense session.
type SessionInfo struct {
	SessionID uint       `json:"sessionId"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime"`
	Location  string     `json:"location"`
	Status    string     `json:"status"`
}

// DefenseReport is the structured bio of one defense session, assembled
// read-only from upstream records plus the analysis-shaped progress section.
type DefenseReport struct {
	Session         SessionInfo    `json:"session"`
	Council         CouncilInfo    `json:"council"`
	Group           GroupInfo      `json:"group"`
	DefenseProgress AnalysisResult `json:"defenseProgress"`
}
