package session

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraudlens-ai/fraudlens/pkg/types"
)

func TestCreateGeneratesDistinctIDs(t *testing.T) {
	st := NewStore()

	a, createdA := st.Create("")
	b, createdB := st.Create("")

	require.True(t, createdA)
	require.True(t, createdB)
	assert.NotEmpty(t, a.ID())
	assert.NotEmpty(t, b.ID())
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, 2, st.Len())
}

func TestCreateIsInsertIfAbsent(t *testing.T) {
	st := NewStore()

	first, created := st.Create("alert-9001")
	require.True(t, created)

	second, created := st.Create("alert-9001")
	assert.False(t, created)
	assert.Same(t, first, second)
	assert.Equal(t, 1, st.Len())
}

func TestGetUnknownIDIsNotAnError(t *testing.T) {
	st := NewStore()

	sess, ok := st.Get("missing")
	assert.False(t, ok)
	assert.Nil(t, sess)
}

func TestHistoryUnknownIDIsEmptyNotNil(t *testing.T) {
	st := NewStore()

	history := st.History("missing")
	assert.NotNil(t, history)
	assert.Empty(t, history)
}

func TestAppendKeepsOrderAndRefreshesAccessTime(t *testing.T) {
	st := NewStore()
	sess, _ := st.Create("alert-1")

	sess.Append(types.NewMessage(types.RoleUser, "why was alert-1 raised?"))
	sess.Append(types.NewMessage(types.RoleAssistant, "card-present spend in two countries within one hour"))

	msgs := st.History("alert-1")
	require.Len(t, msgs, 2)
	assert.Equal(t, types.RoleUser, msgs[0].Role)
	assert.Equal(t, types.RoleAssistant, msgs[1].Role)
	assert.False(t, sess.LastAccessedAt().Before(sess.CreatedAt()))

	info := sess.Info()
	assert.Equal(t, "alert-1", info.ID)
	assert.Equal(t, 2, info.MessageCount)
}

func TestReadsDoNotTouchAccessTime(t *testing.T) {
	st := NewStore()
	sess, _ := st.Create("alert-2")
	before := sess.LastAccessedAt()

	time.Sleep(5 * time.Millisecond)
	_, _ = st.Get("alert-2")
	_ = st.History("alert-2")
	_ = sess.Messages()

	assert.Equal(t, before, sess.LastAccessedAt())
}

func TestMessagesReturnsCopy(t *testing.T) {
	st := NewStore()
	sess, _ := st.Create("alert-3")
	sess.Append(types.NewMessage(types.RoleUser, "original"))

	msgs := sess.Messages()
	msgs[0].Content = "mutated"

	assert.Equal(t, "original", sess.Messages()[0].Content)
}

func TestConcurrentAppendsLoseNothing(t *testing.T) {
	st := NewStore()
	sess, _ := st.Create("alert-4")

	const writers = 16
	const perWriter = 50

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				sess.Append(types.NewMessage(types.RoleUser, fmt.Sprintf("writer %d message %d", w, i)))
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, writers*perWriter, sess.Len())
	assert.Len(t, st.History("alert-4"), writers*perWriter)
}

func TestConcurrentCreateSameIDYieldsOneSession(t *testing.T) {
	st := NewStore()

	const callers = 32
	var wg sync.WaitGroup
	var createdCount atomic.Int32
	sessions := make([]*Session, callers)

	for c := 0; c < callers; c++ {
		wg.Add(1)
		go func(c int) {
			defer wg.Done()
			sess, created := st.Create("alert-contested")
			sessions[c] = sess
			if created {
				createdCount.Add(1)
			}
		}(c)
	}
	wg.Wait()

	assert.Equal(t, int32(1), createdCount.Load())
	assert.Equal(t, 1, st.Len())
	for _, sess := range sessions {
		assert.Same(t, sessions[0], sess)
	}
}

func TestListIsOldestFirst(t *testing.T) {
	st := NewStore()
	first, _ := st.Create("alert-old")
	time.Sleep(2 * time.Millisecond)
	second, _ := st.Create("alert-new")

	infos := st.List()
	require.Len(t, infos, 2)
	assert.Equal(t, first.ID(), infos[0].ID)
	assert.Equal(t, second.ID(), infos[1].ID)
}
