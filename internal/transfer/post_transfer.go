package transfer

type PostCreation struct {
	Platform      string `json:"platform" form:"platform"`
	Caption       string `json:"caption" form:"caption"`
	Title         string `json:"title" form:"title"`
	ScheduledTime string `json:"scheduled_time" form:"scheduled_time"`
	Status        string `json:"status" form:"status"`
}

type PostUpdate struct {
	Platform      string `json:"platform"`
	Caption       string `json:"caption"`
	Title         string `json:"title"`
	ScheduledTime string `json:"scheduled_time"`
	Status        string `json:"status"`
}
