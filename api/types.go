package api

// Request/response DTOs for the five RPC endpoints. Field names are
// camelCase on the wire. There is no generic response envelope: each
// endpoint's shape is spelled out verbatim.

type amounts struct {
	A uint64 `json:"a"`
	B uint64 `json:"b"`
}

// depositRequest is the wire shape of both /deposit and /withdraw.
type depositRequest struct {
	Addr    string  `json:"addr"`
	Amounts amounts `json:"amounts"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type placeOrderRequest struct {
	Addr    string `json:"addr"`
	IsBuy   bool   `json:"isBuy"`
	LimitPx uint64 `json:"limitPx"`
	Sz      uint64 `json:"sz"`
}

type fillDTO struct {
	MakerOID uint64 `json:"makerOid"`
	TakerOID uint64 `json:"takerOid"`
	Sz       uint64 `json:"sz"`
}

type fillStatusDTO struct {
	OID      uint64    `json:"oid"`
	Sz       uint64    `json:"sz"`
	Addr     string    `json:"addr"`
	FilledSz uint64    `json:"filledSz"`
	Fills    []fillDTO `json:"fills"`
}

type placeOrderResponse struct {
	Success bool           `json:"success"`
	Status  *fillStatusDTO `json:"status"`
}

type cancelRequest struct {
	OID uint64 `json:"oid"`
}

type statusRequest struct {
	OID uint64 `json:"oid"`
}

type statusResponse struct {
	Status *fillStatusDTO `json:"status"`
}
