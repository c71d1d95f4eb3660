package dto

// ServiceTokenRequest is the OAuth2 client-credentials request body.
type ServiceTokenRequest struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
	GrantType    string `json:"grantType"`
}

// ServiceTokenResponse is the OAuth2 token response.
type ServiceTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Scope       string `json:"scope"`
	IssuedAt    int64  `json:"issued_at"`
}

// OAuthErrorResponse is the OAuth2 error body.
type OAuthErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}
