package betfair

// DTOs raw de la Betting API del exchange. Solo se usan dentro de este
// paquete; la conversión a domain entities se hace en betting.go.

// loginResponse es la respuesta del endpoint de identidad.
type loginResponse struct {
	Token  string `json:"token"`
	Status string `json:"status"`
	Error  string `json:"error"`
}

// --- listEvents ---

type listEventsRequest struct {
	Filter marketFilter `json:"filter"`
}

type marketFilter struct {
	EventTypeIDs    []string `json:"eventTypeIds,omitempty"`
	EventIDs        []string `json:"eventIds,omitempty"`
	MarketTypeCodes []string `json:"marketTypeCodes,omitempty"`
	TextQuery       string   `json:"textQuery,omitempty"`
}

type eventResult struct {
	Event       eventDTO `json:"event"`
	MarketCount int      `json:"marketCount"`
}

type eventDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	OpenDate string `json:"openDate"`
}

// --- listMarketCatalogue ---

type listMarketCatalogueRequest struct {
	Filter           marketFilter `json:"filter"`
	MaxResults       int          `json:"maxResults"`
	MarketProjection []string     `json:"marketProjection"`
}

type marketCatalogueDTO struct {
	MarketID        string      `json:"marketId"`
	MarketName      string      `json:"marketName"`
	MarketStartTime string      `json:"marketStartTime"`
	Runners         []runnerDTO `json:"runners"`
}

type runnerDTO struct {
	SelectionID int64  `json:"selectionId"`
	RunnerName  string `json:"runnerName"`
}

// --- listMarketBook ---

type listMarketBookRequest struct {
	MarketIDs       []string        `json:"marketIds"`
	PriceProjection priceProjection `json:"priceProjection"`
}

type priceProjection struct {
	PriceData []string `json:"priceData"`
}

type marketBookDTO struct {
	MarketID string          `json:"marketId"`
	Runners  []bookRunnerDTO `json:"runners"`
}

type bookRunnerDTO struct {
	SelectionID int64       `json:"selectionId"`
	Ex          exchangeDTO `json:"ex"`
}

type exchangeDTO struct {
	AvailableToBack []priceSizeDTO `json:"availableToBack"`
	AvailableToLay  []priceSizeDTO `json:"availableToLay"`
}

type priceSizeDTO struct {
	Price float64 `json:"price"`
	Size  float64 `json:"size"`
}
