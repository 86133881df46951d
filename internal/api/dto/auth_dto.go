package dto

type SignupDTO struct {
	FullName  string `json:"fullName" validate:"required,min=1,max=100"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	PublicKey string `json:"publicKey,omitempty" validate:"omitempty,base64"`
}

type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileDTO profilePic 为 data URL
type UpdateProfileDTO struct {
	ProfilePic string `json:"profilePic" validate:"required"`
}

type PublicKeyDTO struct {
	PublicKey string `json:"publicKey" validate:"required,base64"`
}

type PreferencesDTO struct {
	SharePresence *bool `json:"sharePresence" validate:"required"`
}
