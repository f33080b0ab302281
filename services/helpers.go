package services

import (
	"fmt"
	"time"

	"github.com/Dosada05/event-hub/models"
	"github.com/Dosada05/event-hub/storage"
)

// timeAgoLabel renders the relative age shown next to announcements.
func timeAgoLabel(createdAt, now time.Time) string {
	d := now.Sub(createdAt)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%d min ago", int(d.Minutes()))
	case d < 24*time.Hour:
		hours := int(d.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	default:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	}
}

func populateUserLogoURL(user *models.User, uploader storage.FileUploader) {
	if user == nil || user.LogoKey == nil || *user.LogoKey == "" || uploader == nil {
		return
	}
	if url := uploader.GetPublicURL(*user.LogoKey); url != "" {
		user.LogoURL = &url
	}
}

func populateTeamLogoURL(team *models.Team, uploader storage.FileUploader) {
	if team == nil || team.LogoKey == nil || *team.LogoKey == "" || uploader == nil {
		return
	}
	if url := uploader.GetPublicURL(*team.LogoKey); url != "" {
		team.LogoURL = &url
	}
}
