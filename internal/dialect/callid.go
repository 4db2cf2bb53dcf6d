package dialect

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Call IDs are synthesized because neither wire dialect carries one.
// A single monotonic ULID source serves all orchestration invocations,
// so IDs stay unique and ordered under concurrent parsing.
var (
	idMu      sync.Mutex
	idEntropy = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
)

func newCallID() string {
	idMu.Lock()
	defer idMu.Unlock()
	return ulid.MustNew(ulid.Now(), idEntropy).String()
}
