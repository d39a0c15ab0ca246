package response

type AvailabilityResponse struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}
