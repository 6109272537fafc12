package ports

import (
	"math"
	"testing"
)

func TestPageRequest_Normalize(t *testing.T) {
	cases := []struct {
		name string
		in   PageRequest
		want PageRequest
	}{
		{"defaults", PageRequest{}, PageRequest{Page: 1, Limit: DefaultPageLimit}},
		{"caps limit", PageRequest{Page: 2, Limit: 500}, PageRequest{Page: 2, Limit: MaxPageLimit}},
		{"caps page", PageRequest{Page: math.MaxInt, Limit: 10}, PageRequest{Page: MaxPage, Limit: 10}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.Normalize(); got != tc.want {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestPageRequest_OffsetNeverNegative(t *testing.T) {
	for _, p := range []PageRequest{
		{Page: math.MaxInt, Limit: 2},
		{Page: 1 << 62, Limit: MaxPageLimit},
		{Page: -5, Limit: 10},
	} {
		if off := p.Offset(); off < 0 {
			t.Errorf("%+v: negative offset %d", p, off)
		}
	}
	if off := (PageRequest{Page: 3, Limit: 10}).Offset(); off != 20 {
		t.Errorf("offset: got %d, want 20", off)
	}
}
