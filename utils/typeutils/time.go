/*
 * Copyright 2025 Olake By Datazip
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package typeutils

import (
	"fmt"
	"strings"
	"time"
)

type Time struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseStringTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("value [%s] is not a recognized timestamp", value)
}

// ParseTimestamp parses a timestamp string in any supported layout.
func ParseTimestamp(value string) (time.Time, error) {
	return parseStringTimestamp(value)
}

// UnmarshalJSON overrides the default unmarshalling for CustomTime
func (ct *Time) UnmarshalJSON(b []byte) error {
	// Remove the quotes around the date string
	str := strings.Trim(string(b), "\"")
	time, err := parseStringTimestamp(str)
	if err != nil {
		return err
	}

	*ct = Time{time}
	return nil
}

func (ct Time) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", ct.Format(time.RFC3339))), nil
}

// Before reports whether the time instant ct is before u
func (ct Time) Before(u Time) bool {
	return ct.Time.Before(u.Time)
}

// After reports whether the time instant ct is after u
func (ct Time) After(u Time) bool {
	return ct.Time.After(u.Time)
}

// Equal reports whether ct and u represent the same time instant
func (ct Time) Equal(u Time) bool {
	return ct.Time.Equal(u.Time)
}

// Compare compares the time instant ct with u. If ct is before u, it returns -1;
// if ct is after u, it returns +1; if they're the same, it returns 0.
func (ct Time) Compare(u Time) int {
	if ct.Before(u) {
		return -1
	}
	if ct.After(u) {
		return 1
	}
	return 0
}
