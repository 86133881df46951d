package dto

type AddContactDTO struct {
	Email string `json:"email" validate:"required,email"`
}

// ContactDTO 侧边栏联系人，附带未读数
type ContactDTO struct {
	UserDTO
	UnreadCount int64 `json:"unreadCount"`
}
