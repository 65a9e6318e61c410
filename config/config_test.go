// Copyright (c) 2024 The PhysFix Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/squaresLab/physfix/config"
)

func TestDefaultMatchesDocumentedDefaults(t *testing.T) {
	t.Parallel()

	c := config.Default()
	require.Equal(t, config.DefaultMaxFixes, c.MaxFixes)
	require.Equal(t, config.DefaultSearchDepth, c.SearchDepth)
	require.False(t, c.Interactive)
}
