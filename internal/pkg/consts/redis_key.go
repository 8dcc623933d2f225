package consts

const (
	// MediaTempKey 已上传但尚未挂到帖子上的对象，field 为对象 key
	MediaTempKey = "media:temp"
)
