// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slice_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/advisor/pkg/slice"
)

func TestMap(t *testing.T) {
	assert.Equal(t, []string{"1", "2", "3"}, slice.Map([]int{1, 2, 3}, strconv.Itoa))
	assert.Nil(t, slice.Map[int, string](nil, strconv.Itoa))
}

func TestFilter(t *testing.T) {
	even := func(v int) bool { return v%2 == 0 }

	assert.Equal(t, []int{2, 4}, slice.Filter([]int{1, 2, 3, 4}, even))
	assert.Nil(t, slice.Filter([]int{1, 3}, even))
	assert.Nil(t, slice.Filter(nil, even))
}

func TestUnique(t *testing.T) {
	assert.Equal(t, []string{"USER", "ADMIN"}, slice.Unique([]string{"USER", "ADMIN", "USER", "ADMIN"}))
	assert.Equal(t, []int{}, slice.Unique([]int{}))
	assert.Nil(t, slice.Unique[int](nil))
}
