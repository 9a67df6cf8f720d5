package roomhandler

type ErrorResponse struct {
	Error string `json:"error"`
}

type ListRoomsQuery struct {
	Limit  int `form:"limit,default=10"  binding:"gte=0,lte=100"`
	Offset int `form:"offset,default=0"  binding:"gte=0"`
}
