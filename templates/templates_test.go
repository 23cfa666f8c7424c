package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bearlytools/bindecl/filetype"
)

func TestRegister(t *testing.T) {
	t.Parallel()

	r := filetype.NewRegistry()
	require.NoError(t, Register(r))
	assert.Equal(t, []string{"elf", "pcap"}, r.Names())
	assert.Error(t, Register(r), "registering twice must fail")
}
