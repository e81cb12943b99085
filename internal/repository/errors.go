package repository

import "errors"

var ErrMissingID = errors.New("record has no id")
