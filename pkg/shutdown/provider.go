package shutdown

import "github.com/google/wire"

var ProviderSet = wire.NewSet(NewManager)
