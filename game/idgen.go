package game

import (
	"encoding/base64"
	"sync"

	"github.com/google/uuid"
)

type Idgen struct {
	ids    map[string]struct{}
	locker sync.Mutex
}

func NewIdGen() Idgen {
	return Idgen{ids: map[string]struct{}{}}
}

// Generate returns an 11 character url safe room code unique among live rooms.
func (idgen *Idgen) Generate() string {
	idgen.locker.Lock()
	defer idgen.locker.Unlock()
	for {
		u := uuid.New()
		id := base64.RawURLEncoding.EncodeToString(u[:8])
		if _, taken := idgen.ids[id]; taken {
			continue
		}
		idgen.ids[id] = struct{}{}
		return id
	}
}

func (idgen *Idgen) Dispose(id string) {
	idgen.locker.Lock()
	delete(idgen.ids, id)
	idgen.locker.Unlock()
}
