package entity

// RegisterRequest - запрос на регистрацию студента
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
}

// LoginRequest - запрос на вход
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest - запрос на обновление токенов
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse - стандартный ответ об успехе
type SuccessResponse struct {
	Message string `json:"message"`
}
