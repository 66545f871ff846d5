package api

import "github.com/klarity-app/captis/internal/rdisplay"

type displayPayload struct {
	Index   int  `json:"index"`
	Left    int  `json:"left"`
	Top     int  `json:"top"`
	Width   int  `json:"width"`
	Height  int  `json:"height"`
	Primary bool `json:"primary"`
}

type displaysResponse struct {
	Displays []displayPayload `json:"displays"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func newDisplaysResponse(displays []rdisplay.Display, primary int) displaysResponse {
	payload := make([]displayPayload, len(displays))
	for i, d := range displays {
		payload[i] = displayPayload{
			Index:   i,
			Left:    d.Left,
			Top:     d.Top,
			Width:   d.Width,
			Height:  d.Height,
			Primary: i == primary,
		}
	}
	return displaysResponse{Displays: payload}
}
