package routes

const (
	// Health
	Health = "/health"

	// Applicant wizard endpoints
	ApplicationProgress = "/api/v1/application/progress"
	ApplicationSellers  = "/api/v1/application/sellers"
	ApplicationProperty = "/api/v1/application/property"
	ApplicationReview   = "/api/v1/application/review"
	ApplicationOffer    = "/api/v1/application/offer/decision"
	ApplicationComplete = "/api/v1/application/completion"

	// Admin endpoints
	AdminReviewStatus = "/api/v1/admin/reviews/{id}/status"
	AdminOffers       = "/api/v1/admin/offers"
	AdminBuyBoxes     = "/api/v1/admin/buy-boxes"
	AdminBuyBox       = "/api/v1/admin/buy-boxes/{id}"
	AdminBuyBoxProps  = "/api/v1/admin/buy-boxes/{id}/properties"
)
