package domain

import "github.com/mileusna/useragent"

// ClientInfo summarises the submitter's user agent for the dashboard.
type ClientInfo struct {
	Browser string `json:"browser"`
	OS      string `json:"os"`
	Device  string `json:"device"`
}

func ParseClient(ua string) ClientInfo {
	p := useragent.Parse(ua)
	out := ClientInfo{Browser: p.Name, OS: p.OS}
	if out.Browser == "" {
		out.Browser = "Unknown"
	}
	if out.OS == "" {
		out.OS = "Unknown"
	}
	switch {
	case p.Mobile:
		out.Device = "mobile"
	case p.Tablet:
		out.Device = "tablet"
	case p.Bot:
		out.Device = "bot"
	default:
		out.Device = "desktop"
	}
	return out
}
