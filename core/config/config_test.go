package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Events.MaxFutureEvents)
	assert.Equal(t, 6, cfg.Events.MaxFourWeeks)
	assert.Equal(t, 28, cfg.Events.FourWeekWindowDays)
	assert.Equal(t, 14, cfg.Events.SuspendedEventExpiry)
	assert.Equal(t, 9, cfg.Events.OperatingHoursOpen)
	assert.Equal(t, 18, cfg.Events.OperatingHoursClose)
	assert.Contains(t, cfg.Events.Rooms, "Classroom")
	assert.Equal(t, "America/Los_Angeles", cfg.Events.Location().String())
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("USER_MAX_FUTURE_EVENTS", 3)
	v.Set("ROOMS", " Lab , ,Kitchen")
	v.Set("ADMIN_EMAILS", "Admin@Dojo.com, ops@dojo.com")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Events.MaxFutureEvents)
	assert.Equal(t, []string{"Lab", "Kitchen"}, cfg.Events.Rooms)
	assert.Equal(t, []string{"admin@dojo.com", "ops@dojo.com"}, cfg.JWT.AdminEmails)
}

func TestFromViper_RejectsBadValues(t *testing.T) {
	cases := map[string]func(v *viper.Viper){
		"zero future limit": func(v *viper.Viper) { v.Set("USER_MAX_FUTURE_EVENTS", 0) },
		"inverted hours": func(v *viper.Viper) {
			v.Set("OPERATING_HOURS_OPEN", 18)
			v.Set("OPERATING_HOURS_CLOSE", 9)
		},
		"unknown timezone": func(v *viper.Viper) { v.Set("TIMEZONE", "Mars/Olympus") },
		"empty secret":     func(v *viper.Viper) { v.Set("JWT_SECRET", "") },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			v := viper.New()
			setDefaults(v)
			mutate(v)

			_, err := fromViper(v)
			assert.Error(t, err)
		})
	}
}
