package view

import (
	"breakout/pkg/types"
)

// Compose merges the MAIN and BREAKOUT stream lists into the single
// display order: MAIN streams first, then BREAKOUT streams, with the
// first teacher-published stream swapped into index 0. At most one
// swap is performed, so the relative order of every other element is
// preserved. teacherPresent reports whether any stream is published by
// a teacher; when false the caller shows the "no teacher" placeholder.
func Compose(main, sub []types.StreamInfo) (list []types.StreamInfo, teacherPresent bool) {
	list = make([]types.StreamInfo, 0, len(main)+len(sub))
	list = append(list, main...)
	list = append(list, sub...)

	for i, stream := range list {
		if stream.Publisher.Role != types.RoleTeacher {
			continue
		}
		if i != 0 {
			list[0], list[i] = list[i], list[0]
		}
		return list, true
	}
	return list, false
}

// HasCameraChange reports whether any stream in the batch is
// camera-sourced; only camera changes recompute the merged video list.
func HasCameraChange(streams []types.StreamInfo) bool {
	for _, s := range streams {
		if s.Source == types.SourceCamera {
			return true
		}
	}
	return false
}
