package domain

// Center is a catalog entry owned by the upstream service. The client never
// mutates it.
type Center struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Address Address `json:"address"`
}

type Address struct {
	State  string `json:"state"`
	City   string `json:"city"`
	Street string `json:"street"`
	Number int    `json:"number"`
}
