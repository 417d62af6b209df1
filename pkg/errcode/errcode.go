package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CreateLogFileError

	// Corpus load errors
	DescriptionsFileMissingError
	DescriptionsFileReadError
	DescriptionsLineError
	TagsFileMissingError
	TagsFileReadError

	// Parse cache errors
	CacheOpenError
	CacheReadError
	CacheWriteError

	// Web server errors
	ServerStartError
)
