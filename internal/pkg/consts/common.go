package consts

const (
	MimePrefixImage = "image"
	MimePrefixVideo = "video"
)

// KindByExtension mimetype 无法识别时按扩展名兜底
var KindByExtension = map[string]string{
	".jpg":  "image",
	".jpeg": "image",
	".png":  "image",
	".gif":  "image",
	".webp": "image",
	".heic": "image",
	".mp4":  "video",
	".mov":  "video",
	".m4v":  "video",
	".webm": "video",
}

const (
	TransportMinIO     = "minio"
	TransportHTTP      = "http"
	TransportSimulated = "simulated"
)

const (
	DBDriverMySQL  = "mysql"
	DBDriverSQLite = "sqlite"
)
