package models

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AccessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

type CreateListRequest struct {
	Title string `json:"title"`
}

type CreateTaskRequest struct {
	Title string `json:"title"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
