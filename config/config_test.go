package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetters(t *testing.T) {
	c := map[string]string{
		"PORT":    "9090",
		"BAD_INT": "nine",
		"FLAG":    "TRUE",
		"EMPTY":   "",
		"ORIGINS": "https://a.example, ,https://b.example",
	}

	assert.Equal(t, "9090", GetString(c, "PORT", "8080"))
	assert.Equal(t, "fallback", GetString(c, "EMPTY", "fallback"))
	assert.Equal(t, "fallback", GetString(nil, "PORT", "fallback"))
	assert.Equal(t, 7, GetInt(c, "BAD_INT", 7))
	assert.Equal(t, 9090, GetInt(c, "PORT", 0))
	assert.True(t, GetBool(c, "FLAG", false))
	assert.True(t, GetBool(c, "MISSING", true))
	assert.Equal(t, 3*time.Second, GetSeconds(c, "MISSING", 3))
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, GetList(c, "ORIGINS"))
	assert.Nil(t, GetList(c, "MISSING"))
}

func TestLoad(t *testing.T) {
	t.Run("defaults select the memory store", func(t *testing.T) {
		s := Load(map[string]string{})
		assert.Equal(t, "8080", s.Port)
		assert.Empty(t, s.Database.URL)
		assert.True(t, s.Database.AutoMigrate)
		assert.Equal(t, "30-M", s.RateLimit)
		assert.False(t, s.TrustProxy)
		assert.Equal(t, time.Hour, s.JWTTTL)
		assert.False(t, s.Notify.EmailEnabled())
		assert.False(t, s.Notify.SMSEnabled())
	})

	t.Run("legacy mysql variable is honoured", func(t *testing.T) {
		s := Load(map[string]string{"MYSQL_DATABASE_URL": "mysql://u:p@db:3306/site"})
		assert.Equal(t, "mysql://u:p@db:3306/site", s.Database.URL)
	})

	t.Run("DATABASE_URL wins", func(t *testing.T) {
		s := Load(map[string]string{
			"MYSQL_DATABASE_URL": "mysql://u:p@db:3306/site",
			"DATABASE_URL":       "postgres://u:p@pg:5432/site",
		})
		assert.Equal(t, "postgres://u:p@pg:5432/site", s.Database.URL)
	})

	t.Run("forwarded headers are trusted only on request", func(t *testing.T) {
		s := Load(map[string]string{"TRUST_PROXY": "true"})
		assert.True(t, s.TrustProxy)
	})

	t.Run("notifications need every field", func(t *testing.T) {
		s := Load(map[string]string{
			"RESEND_API_KEY":    "re_123",
			"RESEND_FROM_EMAIL": "site@example.com",
			"NOTIFY_EMAILS":     "office@example.com",
		})
		assert.True(t, s.Notify.EmailEnabled())
		assert.False(t, s.Notify.SMSEnabled())
	})
}
