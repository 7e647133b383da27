package models

type Preferences struct {
	Notifications    bool `json:"notifications"`
	LocationServices bool `json:"locationServices"`
	EmailUpdates     bool `json:"emailUpdates"`
	DarkMode         bool `json:"darkMode"`
}

type Profile struct {
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone"`
	ProfileImage *string     `json:"profileImage"`
	Preferences  Preferences `json:"preferences"`
}

// DefaultProfile is the profile shown before the user has saved anything.
func DefaultProfile() Profile {
	return Profile{
		Name:  "John Doe",
		Email: "john.doe@example.com",
		Phone: "+1 (555) 123-4567",
		Preferences: Preferences{
			Notifications:    true,
			LocationServices: true,
			EmailUpdates:     false,
			DarkMode:         false,
		},
	}
}

// FavoritesChangedEvent is published after the favorites set is persisted.
type FavoritesChangedEvent struct {
	EventID   int    `json:"event_id"`
	Action    string `json:"action"`
	Favorites []int  `json:"favorites"`
}
