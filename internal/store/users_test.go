package store

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSanitizeUserSetNormalizesEmail(t *testing.T) {
	set := sanitizeUserSet(bson.M{"email": "  Foo@Bar.ORG ", "name": "Foo"})
	require.Equal(t, "foo@bar.org", set["email"])
	require.Equal(t, "Foo", set["name"])

	// An updated email must still be found by the lowercased login lookup.
	require.Equal(t, normalizeEmail("Foo@Bar.ORG"), set["email"])
}

func TestSanitizeUserSetStripsProtectedFields(t *testing.T) {
	set := sanitizeUserSet(bson.M{
		"name":     "Foo",
		"password": "sneaky",
		"role":     "superadmin",
	})
	require.NotContains(t, set, "password")
	require.NotContains(t, set, "role")
	require.Contains(t, set, "name")
}

func TestUserFilterQueryQuotesSearch(t *testing.T) {
	filter := UserFilter{Search: "(foo"}.query()

	or, ok := filter["$or"].(bson.A)
	require.True(t, ok)
	require.NotEmpty(t, or)
	re := or[0].(bson.M)["name"].(primitive.Regex)
	require.Equal(t, `\(foo`, re.Pattern)
	require.Equal(t, "i", re.Options)
}

func TestUserFilterQueryZeroValues(t *testing.T) {
	require.Empty(t, UserFilter{}.query())

	filter := UserFilter{Mandal: "central", Age: 14}.query()
	require.Equal(t, "central", filter["mandal"])
	require.Equal(t, 14, filter["age"])
	require.NotContains(t, filter, "$or")
}
