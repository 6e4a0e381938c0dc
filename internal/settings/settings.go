package settings

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/Mythic-botz/Rename/internal/config"
	"github.com/Mythic-botz/Rename/internal/services"
)

// Setting keys accepted by Set.
const (
	KeyTemplate  = "template"
	KeyCaption   = "caption"
	KeyThumbnail = "thumbnail"
)

// TagKeys lists the metadata tag names in the order they are displayed.
var TagKeys = []string{"title", "video", "audio", "subtitle", "artist", "author", "encoded_by", "custom_tag"}

// UserSettings are the per-user rename preferences.
type UserSettings struct {
	Template string
	Caption  string
	// Thumbnail is the path of an image delivered alongside renamed files.
	Thumbnail string
	Tags      map[string]string
}

// Source resolves the settings of one user.
type Source interface {
	Settings(ctx context.Context, userID int64) (UserSettings, error)
}

// Writer persists a single setting for one user.
type Writer interface {
	SetSetting(ctx context.Context, userID int64, key, value string) error
}

// Defaults derives the fallback settings from the configuration file.
func Defaults(cfg *config.Config) UserSettings {
	if cfg == nil {
		return UserSettings{Tags: map[string]string{}}
	}
	return UserSettings{
		Template: cfg.Rename.DefaultTemplate,
		Tags:     cfg.DefaultTags(),
	}
}

// Merge overlays the non-empty values of user on base.
func Merge(base, user UserSettings) UserSettings {
	out := UserSettings{
		Template:  base.Template,
		Caption:   base.Caption,
		Thumbnail: base.Thumbnail,
		Tags:      make(map[string]string, len(TagKeys)),
	}
	maps.Copy(out.Tags, base.Tags)
	if strings.TrimSpace(user.Template) != "" {
		out.Template = user.Template
	}
	if strings.TrimSpace(user.Caption) != "" {
		out.Caption = user.Caption
	}
	if strings.TrimSpace(user.Thumbnail) != "" {
		out.Thumbnail = user.Thumbnail
	}
	for key, value := range user.Tags {
		if strings.TrimSpace(value) != "" {
			out.Tags[key] = value
		}
	}
	return out
}

// ValidKey reports whether key names a known setting or metadata tag.
func ValidKey(key string) bool {
	return key == KeyTemplate || key == KeyCaption || key == KeyThumbnail || slices.Contains(TagKeys, key)
}

// CheckKey returns a validation error for unknown keys.
func CheckKey(key string) error {
	if ValidKey(key) {
		return nil
	}
	return services.Wrap(services.ErrValidation, "settings", "set",
		fmt.Sprintf("unknown setting %q", key), nil)
}

// Layered combines a Source with configuration defaults.
type Layered struct {
	source   Source
	defaults UserSettings
}

// NewLayered returns a Source that fills blanks from defaults. A nil source
// yields the defaults for every user.
func NewLayered(source Source, defaults UserSettings) *Layered {
	return &Layered{source: source, defaults: defaults}
}

func (l *Layered) Settings(ctx context.Context, userID int64) (UserSettings, error) {
	if l.source == nil {
		return Merge(l.defaults, UserSettings{}), nil
	}
	user, err := l.source.Settings(ctx, userID)
	if err != nil {
		return UserSettings{}, err
	}
	return Merge(l.defaults, user), nil
}
