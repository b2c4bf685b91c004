package validation

// Login is the login form.
type Login struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Registration is the sign up form.
type Registration struct {
	Company              string `json:"company" validate:"required"`
	Salutation           string `json:"salutation" validate:"required"`
	Firstname            string `json:"firstname" validate:"required"`
	Lastname             string `json:"lastname" validate:"required"`
	Address              string `json:"address" validate:"required"`
	Postalcode           string `json:"postalcode" validate:"required"`
	City                 string `json:"city" validate:"required"`
	Mobile               string `json:"mobile" validate:"required,mobile"`
	CallingCode          string `json:"calling_code"`
	Country              string `json:"country" validate:"required"`
	Email                string `json:"email" validate:"required,address"`
	Password             string `json:"password" validate:"required,password"`
	PasswordConfirmation string `json:"password_confirmation" validate:"eqfield=Password"`
	Terms                bool   `json:"terms"`
}

// AccountDetails is the account tab of the user settings.
type AccountDetails struct {
	Company     string `json:"company" validate:"required"`
	Salutation  string `json:"salutation" validate:"required"`
	Firstname   string `json:"firstname" validate:"required"`
	Lastname    string `json:"lastname" validate:"required"`
	Mobile      string `json:"mobile" validate:"required,mobile"`
	Address     string `json:"address" validate:"required"`
	Postalcode  string `json:"postalcode" validate:"required"`
	City        string `json:"city" validate:"required"`
	Country     string `json:"country" validate:"required"`
	CallingCode string `json:"calling_code"`
}

// APIKey is the publisher tab of the user settings. A masked key is rejected.
type APIKey struct {
	PublisherName string `json:"publisher_name" validate:"required"`
	PublisherID   string `json:"publisher_id" validate:"required"`
	APIKey        string `json:"api_key" validate:"required,apikey"`
}

// ForgotPassword requests a reset mail.
type ForgotPassword struct {
	Email string `json:"email" validate:"required,address"`
}

// PasswordReset sets a new password with the token of the reset mail.
type PasswordReset struct {
	Email                string `json:"email" validate:"required,address"`
	Token                string `json:"token" validate:"required"`
	Password             string `json:"password" validate:"required"`
	PasswordConfirmation string `json:"password_confirmation" validate:"eqfield=Password"`
}

// Publisher creates a publisher for a user.
type Publisher struct {
	Name   string `json:"name" validate:"required"`
	UserID string `json:"user_id"`
}
