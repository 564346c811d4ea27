package entity

// AvatarColors are the tags assigned to new users
var AvatarColors = []string{
	"bg-blue-500",
	"bg-purple-500",
	"bg-pink-500",
	"bg-indigo-500",
	"bg-teal-500",
	"bg-orange-500",
	"bg-emerald-500",
}

// User is a local account. The password is kept as entered; login is a
// lookup, not an authentication protocol.
type User struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Password    string `json:"password,omitempty"`
	AvatarColor string `json:"avatarColor"`
}

// Public returns the user without the password
func (u User) Public() User {
	u.Password = ""
	return u
}
