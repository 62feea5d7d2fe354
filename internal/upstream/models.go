package upstream

// Request describes one outbound call before dispatch. Descriptors are
// built per call and discarded after response handling.
type Request struct {
	// Endpoint is a path template; {shop_id} is substituted with the
	// resolved shop before the URL is built.
	Endpoint string
	// Method defaults to GET when empty.
	Method string
	// Body is serialized as JSON, only for body-carrying methods.
	Body any
	// ShopID overrides the configured shop when set.
	ShopID string
}

// Response is the normalized success shape for upstream calls. Payload is
// the parsed JSON body; an unparsable body becomes an empty object so a
// parse failure never masks the status code.
type Response struct {
	Status  int `json:"status"`
	Payload any `json:"payload"`
}

// CartItem is one line of the upstream cart resource.
type CartItem struct {
	VariantID int64 `json:"variant_id"`
	Quantity  int   `json:"quantity"`
}
