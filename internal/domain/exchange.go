package domain

import "time"

// Event es un evento en vivo del exchange (ej. "Man Utd v Chelsea").
type Event struct {
	ID       string
	Name     string
	OpenDate time.Time
}

// Runner es un resultado apostable dentro de un mercado del exchange.
type Runner struct {
	SelectionID int64
	Name        string
}

// MarketCatalogue es un mercado concreto de un evento, con sus runners.
type MarketCatalogue struct {
	MarketID  string
	Name      string
	StartTime time.Time
	Runners   []Runner
}
