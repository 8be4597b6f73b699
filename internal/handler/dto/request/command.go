package request

type CommandRequest struct {
	Text string `json:"text" binding:"required,max=2048"`
}
