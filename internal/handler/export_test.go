package handler

// Test-only aliases so the external handler_test package can decode
// responses into the unexported wire types.
type (
	CreateOrderResponseForTest      = createOrderResponse
	JoinOrderResponseForTest        = joinOrderResponse
	ModifyCartResponseForTest       = modifyCartResponse
	FulfillOrderResponseForTest     = fulfillOrderResponse
	CreateShortCodeResponseForTest  = createShortCodeResponse
	ResolveShortCodeResponseForTest = resolveShortCodeResponse
)
