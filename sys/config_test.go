package sys

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func testViper(values map[string]any) *viper.Viper {
	v := viper.New()
	v.SetDefault("QOTD_TIMEZONE", "UTC")
	v.SetDefault("QOTD_TIMES", "09:00,21:00")
	v.SetDefault("QOTD_FANOUT", 4)
	v.SetDefault("QOTD_SEND_INTERVAL", "250ms")
	v.SetDefault("DATABASE_PATH", "test.db")
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestConfigFromViper(t *testing.T) {
	cfg, err := configFromViper(testViper(map[string]any{
		"DISCORD_TOKEN":          "token",
		"OWNER_IDS":              " 111, ,222 ",
		"QOTD_TIMEZONE":          "Asia/Tokyo",
		"QOTD_TIMES":             "08:30, 20:00",
		"QOTD_REVIEW_CHANNEL_ID": "123456789012345678",
		"QOTD_SEND_INTERVAL":     "1s",
	}))
	if err != nil {
		t.Fatalf("configFromViper: %v", err)
	}

	if cfg.Location == nil || cfg.Location.String() != "Asia/Tokyo" {
		t.Errorf("Location = %v", cfg.Location)
	}
	if len(cfg.OwnerIDs) != 2 || cfg.OwnerIDs[0] != "111" || cfg.OwnerIDs[1] != "222" {
		t.Errorf("OwnerIDs = %q", cfg.OwnerIDs)
	}
	if len(cfg.PostTimes) != 2 || cfg.PostTimes[0] != "08:30" {
		t.Errorf("PostTimes = %q", cfg.PostTimes)
	}
	if cfg.ReviewChannelID.String() != "123456789012345678" {
		t.Errorf("ReviewChannelID = %s", cfg.ReviewChannelID)
	}
	if cfg.SendInterval != time.Second || cfg.Fanout != 4 {
		t.Errorf("SendInterval = %v, Fanout = %d", cfg.SendInterval, cfg.Fanout)
	}
	if GlobalConfig != cfg {
		t.Error("GlobalConfig was not set")
	}
}

func TestConfigFromViperRejects(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
		want   string
	}{
		{"missing token", map[string]any{}, "DISCORD_TOKEN"},
		{"short guild", map[string]any{"DISCORD_TOKEN": "t", "GUILD_ID": "123"}, "GUILD_ID"},
		{"bad timezone", map[string]any{"DISCORD_TOKEN": "t", "QOTD_TIMEZONE": "Mars/Olympus"}, "QOTD_TIMEZONE"},
		{"bad time", map[string]any{"DISCORD_TOKEN": "t", "QOTD_TIMES": "9am"}, "QOTD_TIMES"},
		{"no times", map[string]any{"DISCORD_TOKEN": "t", "QOTD_TIMES": " , "}, "QOTD_TIMES"},
		{"bad interval", map[string]any{"DISCORD_TOKEN": "t", "QOTD_SEND_INTERVAL": "soon"}, "QOTD_SEND_INTERVAL"},
		{"bad review channel", map[string]any{"DISCORD_TOKEN": "t", "QOTD_REVIEW_CHANNEL_ID": "abc"}, "QOTD_REVIEW_CHANNEL_ID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := configFromViper(testViper(tt.values))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %s", err, tt.want)
			}
		})
	}
}

func TestValidateClampsFanout(t *testing.T) {
	cfg := &Config{Token: "t", Timezone: "UTC", PostTimes: []string{"09:00"}, Fanout: 0}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Fanout != 1 {
		t.Errorf("Fanout = %d, want 1", cfg.Fanout)
	}
}

func TestSplitList(t *testing.T) {
	if got := splitList(""); got != nil {
		t.Errorf("splitList(\"\") = %q", got)
	}
	got := splitList("a, b ,,c")
	if strings.Join(got, "|") != "a|b|c" {
		t.Errorf("splitList = %q", got)
	}
}
