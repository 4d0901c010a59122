package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/buildsite-backend/errs"
	"github.com/rpupo63/buildsite-backend/models"
)

func issueFields(t *testing.T, err error) []string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected *ValidationError, got %v", err)
	fields := make([]string, 0, len(verr.Issues))
	for _, issue := range verr.Issues {
		fields = append(fields, issue.Field)
	}
	return fields
}

func TestDecodeWaitlistDefaults(t *testing.T) {
	in, err := Decode[models.WaitlistEntryInput]([]byte(`{"name":"  Jane Doe ","email":"jane@example.com","unknown":42}`))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", in.Name)

	entry := in.ToWaitlistEntry()
	assert.True(t, entry.AcceptsUpdates, "acceptsUpdates defaults to true")
	assert.Nil(t, entry.Phone)
}

func TestDecodeFlagAcceptsNumbers(t *testing.T) {
	in, err := Decode[models.WaitlistEntryInput]([]byte(`{"name":"Jane","email":"jane@example.com","acceptsUpdates":0}`))
	require.NoError(t, err)
	assert.False(t, in.ToWaitlistEntry().AcceptsUpdates)

	p, err := Decode[models.ProjectInput]([]byte(`{
		"title":"Harbor Bridge","description":"Steel arch","category":"Infrastructure",
		"location":"Portland","imageUrl":"/img/bridge.jpg","featured":1}`))
	require.NoError(t, err)
	assert.True(t, p.ToProject().Featured)
}

func TestDecodeAggregatesEveryIssue(t *testing.T) {
	_, err := Decode[models.ContactMessageInput]([]byte(`{"name":"J","email":"not-an-email","subject":"Hi","message":"short"}`))
	require.Error(t, err)

	assert.ElementsMatch(t, []string{"name", "email", "subject", "message"}, issueFields(t, err))
	assert.True(t, strings.HasPrefix(err.Error(), "Validation error: "))
	assert.Contains(t, err.Error(), "message must be at least 10 characters")
	assert.Contains(t, err.Error(), "email must be a valid email address")
}

func TestDecodeContactMessageBounds(t *testing.T) {
	base := func(subject, message string) []byte {
		return []byte(`{"name":"Jane","email":"jane@example.com","subject":"` + subject + `","message":"` + message + `"}`)
	}

	tests := []struct {
		name    string
		body    []byte
		wantErr []string
	}{
		{"valid", base("Quote", strings.Repeat("a", 10)), nil},
		{"message 9 chars", base("Quote", strings.Repeat("a", 9)), []string{"message"}},
		{"message 1001 chars", base("Quote", strings.Repeat("a", 1001)), []string{"message"}},
		{"message 1000 chars", base("Quote", strings.Repeat("a", 1000)), nil},
		{"subject 2 chars", base("Hi", strings.Repeat("a", 20)), []string{"subject"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode[models.ContactMessageInput](tt.body)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantErr, issueFields(t, err))
		})
	}
}

func TestDecodeWrongTypes(t *testing.T) {
	_, err := Decode[models.ServiceInput]([]byte(`{"title":5,"description":"Framing","iconName":"hammer","featured":"yes"}`))
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []Issue{
		{Field: "title", Message: "must be a string"},
		{Field: "featured", Message: "must be a boolean"},
	}, verr.Issues)
}

func TestDecodeRejectsNonObjects(t *testing.T) {
	for _, body := range []string{``, `[]`, `"text"`, `{"title":`} {
		_, err := Decode[models.PageVisitInput]([]byte(body))
		assert.Equal(t, []string{"body"}, issueFields(t, err), "body %q", body)
	}
}

func TestValidateByKind(t *testing.T) {
	v, err := Validate(KindPageVisit, []byte(`{"page":"home"}`))
	require.NoError(t, err)
	assert.Equal(t, models.PageVisitInput{Page: "home"}, v)

	_, err = Validate(KindCompanyInfo, []byte(`{"section":"Our Story","content":"x"}`))
	assert.Equal(t, []string{"section"}, issueFields(t, err))

	_, err = Validate(KindContactStatus, []byte(`{"status":"deleted"}`))
	assert.Contains(t, err.Error(), "status must be one of: new, read, replied, archived")

	v, err = Validate(KindLogin, []byte(`{"username":"ab","password":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, models.LoginInput{Username: "ab", Password: "x"}, v)

	_, err = Validate(KindUser, []byte(`{"username":"ab","password":"x"}`))
	assert.ElementsMatch(t, []string{"username", "password"}, issueFields(t, err))

	_, err = Validate(Kind("nope"), []byte(`{}`))
	assert.Error(t, err)
	var verr *ValidationError
	assert.False(t, errors.As(err, &verr))
}

func TestPasswordIsNotTrimmed(t *testing.T) {
	in, err := Decode[models.UserInput]([]byte(`{"username":" admin ","password":" secret pass "}`))
	require.NoError(t, err)
	assert.Equal(t, "admin", in.Username)
	assert.Equal(t, " secret pass ", in.Password)
}

func TestAsApiErr(t *testing.T) {
	_, err := Decode[models.PageVisitInput]([]byte(`{}`))
	var apiErr *errs.ApiErr
	require.True(t, errors.As(AsApiErr(err), &apiErr))
	assert.ErrorIs(t, apiErr, errs.ErrValidation)
	assert.Equal(t, 400, apiErr.StatusCode)

	other := errors.New("boom")
	assert.Same(t, other, AsApiErr(other))
}
