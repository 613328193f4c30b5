package transfer

// Request/response shapes for the generateContent REST endpoint.

type GeminiRequest struct {
	Contents []GeminiContent `json:"contents"`
}

type GeminiContent struct {
	Parts []GeminiPart `json:"parts"`
}

type GeminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *GeminiInlineData `json:"inline_data,omitempty"`
}

type GeminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type GeminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type ContentPlanRequest struct {
	Days      int      `json:"days"`
	Platforms []string `json:"platforms"`
	Topic     string   `json:"topic"`
	Tone      string   `json:"tone"`
}

type ContentPlan struct {
	Days []ContentPlanDay `json:"days"`
}

type ContentPlanDay struct {
	Day     int                `json:"day"`
	Entries []ContentPlanEntry `json:"entries"`
}

type ContentPlanEntry struct {
	Platform string `json:"platform"`
	Idea     string `json:"idea"`
	Caption  string `json:"caption"`
	BestTime string `json:"best_time"`
}
