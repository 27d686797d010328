package model

// TransactionParty is one named party on a filing document.
type TransactionParty struct {
	Role string `json:"role"`
	Name string `json:"name"`
}

// Transaction is a timeline entry derived from joining a filing-master
// record with its party records on document id. Transactions are returned
// separately from candidates for display and audit.
type Transaction struct {
	DocumentID   string             `json:"document_id"`
	DocType      string             `json:"doc_type"`
	Amount       float64            `json:"amount"`
	RecordedDate string             `json:"recorded_date"`
	DocumentDate string             `json:"document_date,omitempty"`
	Parties      []TransactionParty `json:"parties,omitempty"`
}

// CorporateHit is one corporate-registry match for an entity-flagged name.
type CorporateHit struct {
	SearchedName string `json:"searched_name"`
	CorpID       string `json:"corp_id"`
	CorpName     string `json:"corp_name"`
	Status       string `json:"status"`
	DateFiled    string `json:"date_filed,omitempty"`
}
