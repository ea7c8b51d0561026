package models

// MeProfile is the response of GET /api/v2/me.
type MeProfile struct {
	User          User     `json:"user"`
	Subscriptions []string `json:"subscriptions"`
}

// Review is a single reviewer's decision on a document.
type Review struct {
	ID         int        `json:"id,omitempty"`
	DocumentID int        `json:"documentId"`
	User       User       `json:"user"`
	Status     string     `json:"status"`
	CreatedAt  *Timestamp `json:"createdAt,omitempty"`
	UpdatedAt  *Timestamp `json:"updatedAt,omitempty"`
}

// DocumentReview is a document awaiting the current user's review.
type DocumentReview struct {
	Document          Document   `json:"document"`
	ReviewRequestedAt *Timestamp `json:"reviewRequestedAt,omitempty"`
}

// WebConfig is the public frontend configuration served at /api/v2/web/config.
type WebConfig struct {
	AuthProvider         string `json:"auth_provider"`
	AlgoliaAppID         string `json:"algolia_app_id,omitempty"`
	AlgoliaSearchAPIKey  string `json:"algolia_search_api_key,omitempty"`
	AnalyticsTrackingID  string `json:"analytics_tracking_id,omitempty"`
	BaseURL              string `json:"base_url,omitempty"`
	CreateDocsLink       string `json:"create_docs_link,omitempty"`
	DexIssuerURL         string `json:"dex_issuer_url,omitempty"`
	GoogleOAuth2ClientID string `json:"google_oauth2_client_id,omitempty"`
	ShortLinkBaseURL     string `json:"short_link_base_url,omitempty"`
	SkipGoogleAuth       bool   `json:"skip_google_auth,omitempty"`
}
