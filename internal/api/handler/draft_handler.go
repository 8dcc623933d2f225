package handler

import (
	"Shutter/internal/api/dto"
	"Shutter/internal/pkg/response"
	"Shutter/internal/pkg/util"
	"Shutter/internal/service"
	"io"
	log "log/slog"
	"mime/multipart"

	"github.com/gin-gonic/gin"
)

type DraftHandler struct {
	mediaSvc service.MediaService
	shareSvc service.ShareService
}

func NewDraftHandler(mediaSvc service.MediaService, shareSvc service.ShareService) *DraftHandler {
	return &DraftHandler{
		mediaSvc: mediaSvc,
		shareSvc: shareSvc,
	}
}

// CreateDraft multipart: files 为媒体，caption/location/tags/audio_* 为文字信息
func (s *DraftHandler) CreateDraft(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	req := dto.DraftMetadataDTO{
		Caption:  c.PostForm("caption"),
		Location: c.PostForm("location"),
		Tags:     c.PostForm("tags"),
	}
	if id, uri := c.PostForm("audio_id"), c.PostForm("audio_uri"); id != "" || uri != "" {
		req.Audio = &dto.AudioDTO{ID: id, URI: uri, Title: c.PostForm("audio_title")}
	}
	if err = util.ValidateDTO(&req); err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return
	}

	headers := form.File["files"]
	files := make([]service.ImportFile, 0, len(headers))
	closers := make([]io.Closer, 0, len(headers))
	defer func() {
		for _, cl := range closers {
			_ = cl.Close()
		}
	}()
	for _, fh := range headers {
		var f multipart.File
		f, err = fh.Open()
		if err != nil {
			response.Error(c, service.ErrParamInvalid)
			return
		}
		closers = append(closers, f)
		files = append(files, service.ImportFile{FileName: fh.Filename, Reader: f})
	}

	items, err := s.mediaSvc.Import(c.Request.Context(), files)
	if err != nil {
		response.Error(c, err)
		return
	}

	snap, err := s.shareSvc.CreateDraft(c.Request.Context(), items, toMetadata(&req))
	if err != nil {
		s.mediaSvc.Discard(c.Request.Context(), items)
		response.Error(c, err)
		return
	}
	response.Success(c, toDraftDTO(snap))
}

func (s *DraftHandler) GetDraft(c *gin.Context) {
	snap, err := s.shareSvc.GetSession(c.Request.Context(), c.Param("draft_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toDraftDTO(snap))
}

func (s *DraftHandler) UpdateMetadata(c *gin.Context) {
	var req dto.DraftMetadataDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return
	}

	snap, err := s.shareSvc.UpdateMetadata(c.Request.Context(), c.Param("draft_id"), toMetadata(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toDraftDTO(snap))
}

func (s *DraftHandler) ReorderMedia(c *gin.Context) {
	var req dto.DraftReorderDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return
	}

	snap, err := s.shareSvc.ReorderMedia(c.Request.Context(), c.Param("draft_id"), *req.From, *req.To)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toDraftDTO(snap))
}

func (s *DraftHandler) RemoveMedia(c *gin.Context) {
	snap, err := s.shareSvc.RemoveMedia(c.Request.Context(), c.Param("draft_id"), c.Param("media_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toDraftDTO(snap))
}

// Share 阻塞到批次落定；进度通过 websocket 推送
func (s *DraftHandler) Share(c *gin.Context) {
	snap, err := s.shareSvc.Share(c.Request.Context(), c.Param("draft_id"))
	s.settled(c, snap, err)
}

func (s *DraftHandler) Retry(c *gin.Context) {
	snap, err := s.shareSvc.Retry(c.Request.Context(), c.Param("draft_id"))
	s.settled(c, snap, err)
}

func (s *DraftHandler) Abandon(c *gin.Context) {
	snap, err := s.shareSvc.Abandon(c.Request.Context(), c.Param("draft_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, toDraftDTO(snap))
}

// settled 部分失败时附带草稿状态，方便客户端弹出重试提示
func (s *DraftHandler) settled(c *gin.Context, snap *service.SessionSnapshot, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	out := toDraftDTO(snap)
	if snap.State == service.SessionPartiallyFailed {
		log.InfoContext(c.Request.Context(), "share partially failed", "draft_id", snap.ID, "failed", len(out.Failed))
		response.FailWithData(c, response.Conflict, service.ErrRetryPending.Error(), out)
		return
	}
	response.Success(c, out)
}
