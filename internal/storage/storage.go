package storage

import "mime/multipart"

// Storage 是附件存储后端的统一接口
type Storage interface {
	UploadFile(file *multipart.FileHeader, path string) (string, error)
}
