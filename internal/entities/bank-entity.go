package entities

// Bank — запись реестра испанских банков.
type Bank struct {
	IBANPrefix     string `json:"iban_prefix"`
	Name           string `json:"name"`
	EntityCode     string `json:"entity_code"`
	Address        string `json:"address"`
	LEI            string `json:"lei,omitempty"`
	Operator       string `json:"operator,omitempty"`
	Provider       string `json:"provider,omitempty"`
	SupervisorCode string `json:"supervisor_code,omitempty"`
}

// MajorBank — банк из короткого списка для быстрого выбора.
type MajorBank struct {
	IBANPrefix  string `json:"iban_prefix"`
	DisplayName string `json:"display_name"`
}
