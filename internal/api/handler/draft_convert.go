package handler

import (
	"Shutter/internal/api/dto"
	"Shutter/internal/model"
	"Shutter/internal/service"
	"time"
)

func toDraftDTO(snap *service.SessionSnapshot) *dto.DraftDTO {
	out := &dto.DraftDTO{
		ID:             snap.ID,
		State:          string(snap.State),
		Medias:         make([]*dto.DraftMediaDTO, len(snap.Items)),
		Metadata:       toMetadataDTO(snap.Metadata),
		Progress:       snap.Progress.ProgressPercent,
		CompletedCount: snap.Progress.CompletedCount,
		TotalCount:     snap.Progress.TotalCount,
		Retrying:       snap.Retrying,
		SucceededCount: len(snap.Result.Succeeded),
		Failed:         make([]*dto.DraftFailedDTO, len(snap.Result.Failed)),
		LastError:      snap.LastError,
		UpdatedAt:      snap.UpdatedAt.Format(time.RFC3339),
	}

	for i, item := range snap.Items {
		out.Medias[i] = &dto.DraftMediaDTO{
			ID:              item.ID,
			Kind:            string(item.Kind),
			OriginalName:    item.OriginalURI,
			Width:           item.Width,
			Height:          item.Height,
			DurationSeconds: item.DurationSeconds,
			FileSizeBytes:   item.FileSizeBytes,
		}
	}
	for i, f := range snap.Result.Failed {
		out.Failed[i] = &dto.DraftFailedDTO{
			Index:        f.Index,
			MediaID:      f.Item.ID,
			ErrorMessage: f.ErrorMessage,
		}
	}
	if snap.Post != nil && snap.State == service.SessionPostCreated {
		out.PostID = snap.Post.ID
	}
	return out
}

func toMetadataDTO(meta model.PostMetadata) *dto.DraftMetadataDTO {
	out := &dto.DraftMetadataDTO{
		Caption:  meta.Caption,
		Location: meta.Location,
		Tags:     meta.Tags,
	}
	if meta.Audio != nil {
		out.Audio = &dto.AudioDTO{ID: meta.Audio.ID, URI: meta.Audio.URI, Title: meta.Audio.Title}
	}
	return out
}

func toMetadata(req *dto.DraftMetadataDTO) model.PostMetadata {
	meta := model.PostMetadata{
		Caption:  req.Caption,
		Location: req.Location,
		Tags:     req.Tags,
	}
	if req.Audio != nil && (req.Audio.ID != "" || req.Audio.URI != "") {
		meta.Audio = &model.AudioRef{ID: req.Audio.ID, URI: req.Audio.URI, Title: req.Audio.Title}
	}
	return meta
}
