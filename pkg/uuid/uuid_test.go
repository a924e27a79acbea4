// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuid_test

import (
	"testing"

	googleuuid "github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/advisor/pkg/uuid"
)

/*
TestNew verifies identifiers are version 7 and distinct.
*/
func TestNew(t *testing.T) {
	first, err := googleuuid.Parse(uuid.New())
	require.NoError(t, err)
	assert.Equal(t, googleuuid.Version(7), first.Version())

	assert.NotEqual(t, uuid.New(), uuid.New())
}
