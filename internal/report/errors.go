package report

import "errors"

var ErrComplaintNotDisplayable = errors.New("complaint id does not match the display pattern")
