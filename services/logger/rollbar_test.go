package logsvc

import (
	"bytes"
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/cgpa/core"
	"github.com/trezcool/cgpa/core/user"
)

func TestRollbarLogger(t *testing.T) {
	var out bytes.Buffer
	logger := NewRollbarLogger(log.New(&out, "TEST : ", 0), core.NewTestConfig())
	logger.Enable(false)

	usr := user.User{ID: "42", Name: "Ada", Email: "ada@test.ng"}
	logger.Error("uploading result", errors.New("boom"), usr)
	logger.Info("started")

	printed := out.String()
	assert.Contains(t, printed, "TEST : uploading result\n")
	assert.Contains(t, printed, "TEST : boom\n")
	assert.Contains(t, printed, "TEST : started\n")
	assert.Contains(t, printed, "TEST : user: 42\n")
	assert.NotContains(t, printed, "ada@test.ng")
}
