package response

type CommandResponse struct {
	Messages []string `json:"messages"`
}
