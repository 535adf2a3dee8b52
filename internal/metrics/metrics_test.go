package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordTransition(t *testing.T) {
	ok := testutil.ToFloat64(FriendshipTransitionsTotal.WithLabelValues("block", "ok"))
	rejected := testutil.ToFloat64(FriendshipTransitionsTotal.WithLabelValues("block", "rejected"))

	RecordTransition("block", nil)
	RecordTransition("block", errors.New("cannot block an administrator"))
	RecordTransition("block", errors.New("cannot block an administrator"))

	assert.Equal(t, ok+1, testutil.ToFloat64(FriendshipTransitionsTotal.WithLabelValues("block", "ok")))
	assert.Equal(t, rejected+2, testutil.ToFloat64(FriendshipTransitionsTotal.WithLabelValues("block", "rejected")))
}
