package handlers

import (
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandArgument(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "no argument", input: "/free", expected: ""},
		{name: "single argument", input: "/free Мондштадт", expected: "Мондштадт"},
		{name: "multi-word argument", input: "/new Чжун Ли", expected: "Чжун Ли"},
		{name: "surrounding whitespace", input: "  /free  Сумеру  ", expected: "Сумеру"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, commandArgument(tc.input))
		})
	}
}

func TestParseClaimCallback(t *testing.T) {
	t.Parallel()

	verb, topicID, err := parseClaimCallback("anketa:accept:42")
	require.NoError(t, err)
	assert.Equal(t, "accept", verb)
	assert.Equal(t, int64(42), topicID)

	verb, topicID, err = parseClaimCallback("anketa:reject:7")
	require.NoError(t, err)
	assert.Equal(t, "reject", verb)
	assert.Equal(t, int64(7), topicID)

	for _, data := range []string{"", "anketa:accept", "other:accept:42", "anketa:accept:abc"} {
		_, _, err := parseClaimCallback(data)
		assert.Error(t, err, "data %q should not parse", data)
	}
}

func TestTargetUserID(t *testing.T) {
	t.Parallel()

	// Reply takes precedence over an argument.
	msg := &models.Message{
		Text: "/ban 555",
		ReplyToMessage: &models.Message{
			From: &models.User{ID: 777},
		},
	}
	id, err := targetUserID(msg)
	require.NoError(t, err)
	assert.Equal(t, int64(777), id)

	id, err = targetUserID(&models.Message{Text: "/ban 555"})
	require.NoError(t, err)
	assert.Equal(t, int64(555), id)

	_, err = targetUserID(&models.Message{Text: "/ban"})
	assert.Error(t, err)

	_, err = targetUserID(&models.Message{Text: "/ban not-a-number"})
	assert.Error(t, err)
}

func TestFullName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Alice Liddell", fullName(&models.User{FirstName: "Alice", LastName: "Liddell"}))
	assert.Equal(t, "Alice", fullName(&models.User{FirstName: "Alice"}))
	assert.Equal(t, "", fullName(&models.User{}))
}
