package transfer

// Graph API shapes for the Threads connect flow. The chain is
// code -> user token -> pages -> linked IG business account -> profile.

type GraphToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type GraphPageList struct {
	Data []GraphPage `json:"data"`
}

type GraphPage struct {
	ID                       string        `json:"id"`
	Name                     string        `json:"name"`
	InstagramBusinessAccount *GraphAccount `json:"instagram_business_account"`
}

type GraphAccount struct {
	ID string `json:"id"`
}

type GraphProfile struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profile_picture_url"`
}

type GraphErrorResponse struct {
	Error struct {
		Message   string `json:"message"`
		Type      string `json:"type"`
		Code      int    `json:"code"`
		FbtraceID string `json:"fbtrace_id"`
	} `json:"error"`
}
