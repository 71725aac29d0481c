package context

import (
	stdcontext "context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActorRoundTrip(t *testing.T) {
	ctx := WithActor(stdcontext.Background(), " 42 ", "ADMIN")
	id, role := ActorFromContext(ctx)
	assert.Equal(t, "42", id)
	assert.Equal(t, "admin", role)

	id, role = ActorFromContext(stdcontext.Background())
	assert.Empty(t, id)
	assert.Empty(t, role)
}
