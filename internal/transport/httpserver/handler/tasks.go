package handler

import (
	"errors"
	"net/http"
	"time"

	taskdomain "family-organizer/internal/domain/task"
	"family-organizer/internal/transport/httpserver/middleware"
	"family-organizer/internal/upload"
)

type createTaskRequest struct {
	Title             string   `json:"title" validate:"required,min=1,max=200"`
	Description       *string  `json:"description"`
	Date              string   `json:"date" validate:"required"`
	CategoryID        string   `json:"categoryId" validate:"required"`
	TemplateID        *string  `json:"templateId"`
	Reward            *string  `json:"reward"`
	Visibility        *string  `json:"visibility" validate:"omitempty,oneof=public private family"`
	Complexity        *string  `json:"complexity" validate:"omitempty,oneof=easy medium hard"`
	Popularity        *string  `json:"popularity" validate:"omitempty,oneof=viral trending normal"`
	TimeOfDay         *string  `json:"timeOfDay" validate:"omitempty,oneof=morning afternoon evening"`
	Repeat            *string  `json:"repeat" validate:"omitempty,oneof=daily weekly monthly once"`
	AssignedMemberIDs []string `json:"assignedMemberIds"`
}

// CreateTask accepts either a JSON body or a multipart form. The multipart
// form may carry an "image" file, which is size/type-checked and stored;
// its path is not persisted on the task row.
func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req createTaskRequest
	if isMultipart(r) {
		if err := h.decodeCreateTaskForm(r, &req); err != nil {
			h.writeUploadError(w, "task.create", err)
			return
		}
	} else if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid date")
		return
	}

	created, err := h.Tasks.CreateAndAssign(r.Context(), claims.UserID(), taskdomain.CreateInput{
		Title:             req.Title,
		Description:       req.Description,
		Date:              date,
		CategoryID:        req.CategoryID,
		TemplateID:        req.TemplateID,
		Reward:            req.Reward,
		Visibility:        req.Visibility,
		Complexity:        req.Complexity,
		Popularity:        req.Popularity,
		TimeOfDay:         req.TimeOfDay,
		Repeat:            req.Repeat,
		AssignedMemberIDs: req.AssignedMemberIDs,
	})
	if err != nil {
		h.log.InternalError("task.create: failed", err, "user_id", claims.UserID())
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": true,
		"task":   toTaskResponse(created),
	})
}

func (h *Handlers) decodeCreateTaskForm(r *http.Request, req *createTaskRequest) error {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return err
	}
	req.Title = r.FormValue("title")
	req.Date = r.FormValue("date")
	req.CategoryID = r.FormValue("categoryId")
	req.Description = formValuePtr(r, "description")
	req.TemplateID = formValuePtr(r, "templateId")
	req.Reward = formValuePtr(r, "reward")
	req.Visibility = formValuePtr(r, "visibility")
	req.Complexity = formValuePtr(r, "complexity")
	req.Popularity = formValuePtr(r, "popularity")
	req.TimeOfDay = formValuePtr(r, "timeOfDay")
	req.Repeat = formValuePtr(r, "repeat")

	// Member ids arrive either as repeated fields or a single comma list.
	values := r.Form["assignedMemberIds"]
	if len(values) == 1 {
		req.AssignedMemberIDs = parseCSV(values[0])
	} else {
		req.AssignedMemberIDs = values
	}

	if _, err := h.Uploads.SaveImage(r, "image"); err != nil && !errors.Is(err, upload.ErrNoFile) {
		return err
	}
	return nil
}

func (h *Handlers) ListTaskTemplates(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var categoryID *string
	if value := r.URL.Query().Get("categoryId"); value != "" {
		categoryID = &value
	}

	templates, err := h.Tasks.ListTemplates(r.Context(), claims.UserID(), categoryID)
	if err != nil {
		if errors.Is(err, taskdomain.ErrNoMembership) {
			h.log.BusinessError("task.list_templates: no family membership", err, "user_id", claims.UserID())
			writeError(w, http.StatusNotFound, "family_not_found", "you do not belong to a family")
			return
		}
		h.log.InternalError("task.list_templates: failed", err, "user_id", claims.UserID())
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	out := make([]templateResponse, 0, len(templates))
	for i := range templates {
		out = append(out, toTemplateResponse(&templates[i]))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    true,
		"templates": out,
	})
}

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Tasks.ListCategories(r.Context())
	if err != nil {
		h.log.InternalError("task.list_categories: failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	out := make([]categoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, toCategoryResponse(&categories[i]))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":     true,
		"categories": out,
	})
}

type addCategoryRequest struct {
	Name    string  `json:"name" validate:"required,min=1,max=100"`
	IconURL *string `json:"iconUrl"`
}

// AddCategory takes JSON or a multipart form; a multipart "icon" file wins
// over a textual iconUrl.
func (h *Handlers) AddCategory(w http.ResponseWriter, r *http.Request) {
	var req addCategoryRequest
	if isMultipart(r) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid form body")
			return
		}
		req.Name = r.FormValue("name")
		req.IconURL = formValuePtr(r, "iconUrl")
		path, err := h.Uploads.SaveImage(r, "icon")
		switch {
		case err == nil:
			req.IconURL = &path
		case !errors.Is(err, upload.ErrNoFile):
			h.writeUploadError(w, "task.add_category", err)
			return
		}
	} else if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	category, err := h.Tasks.AddCategory(r.Context(), req.Name, req.IconURL)
	if err != nil {
		if errors.Is(err, taskdomain.ErrCategoryExists) {
			h.log.BusinessError("task.add_category: duplicate name", err, "name", req.Name)
			writeError(w, http.StatusConflict, "category_exists", "category already exists")
			return
		}
		h.log.InternalError("task.add_category: failed", err, "name", req.Name)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"status":   true,
		"category": toCategoryResponse(category),
	})
}

func (h *Handlers) writeUploadError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, upload.ErrTooLarge):
		h.log.BusinessError(op+": upload too large", err)
		writeError(w, http.StatusBadRequest, "file_too_large", "file exceeds size limit")
	case errors.Is(err, upload.ErrUnsupportedType):
		h.log.BusinessError(op+": unsupported upload type", err)
		writeError(w, http.StatusBadRequest, "unsupported_file_type", "unsupported file type")
	default:
		h.log.BusinessError(op+": bad form body", err)
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid form body")
	}
}

type categoryResponse struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	IconURL   *string            `json:"iconUrl"`
	CreatedAt time.Time          `json:"createdAt"`
	Templates []templateResponse `json:"templates,omitempty"`
}

type templateResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description *string           `json:"description"`
	Reward      *string           `json:"reward"`
	Complexity  *string           `json:"complexity"`
	Popularity  *string           `json:"popularity"`
	ImageURL    *string           `json:"imageUrl"`
	CategoryID  string            `json:"categoryId"`
	CreatedByID *string           `json:"createdById"`
	Category    *categoryResponse `json:"category,omitempty"`
}

type taskResponse struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Description *string              `json:"description"`
	Date        time.Time            `json:"date"`
	CategoryID  string               `json:"categoryId"`
	TemplateID  *string              `json:"templateId"`
	CreatedByID string               `json:"createdById"`
	TimeOfDay   *string              `json:"timeOfDay"`
	Repeat      *string              `json:"repeat"`
	Reward      *string              `json:"reward"`
	Visibility  *string              `json:"visibility"`
	Complexity  *string              `json:"complexity"`
	Popularity  *string              `json:"popularity"`
	CreatedAt   time.Time            `json:"createdAt"`
	Category    *categoryResponse    `json:"category,omitempty"`
	Template    *templateResponse    `json:"template,omitempty"`
	Assignments []assignmentResponse `json:"assignments"`
}

type assignmentResponse struct {
	ID       string          `json:"id"`
	MemberID string          `json:"memberId"`
	Member   *memberResponse `json:"member,omitempty"`
}

type memberResponse struct {
	ID        string  `json:"id"`
	UserID    string  `json:"userId"`
	Role      string  `json:"role"`
	Name      *string `json:"name"`
	AvatarURL *string `json:"avatarUrl"`
}

func toCategoryResponse(c *taskdomain.Category) categoryResponse {
	out := categoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		IconURL:   c.IconURL,
		CreatedAt: c.CreatedAt,
	}
	for i := range c.Templates {
		out.Templates = append(out.Templates, toTemplateResponse(&c.Templates[i]))
	}
	return out
}

func toTemplateResponse(t *taskdomain.TaskTemplate) templateResponse {
	out := templateResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Reward:      t.Reward,
		Complexity:  t.Complexity,
		Popularity:  t.Popularity,
		ImageURL:    t.ImageURL,
		CategoryID:  t.CategoryID,
		CreatedByID: t.CreatedByID,
	}
	if t.Category != nil {
		category := toCategoryResponse(t.Category)
		out.Category = &category
	}
	return out
}

func toTaskResponse(t *taskdomain.Task) taskResponse {
	out := taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Date:        t.Date,
		CategoryID:  t.CategoryID,
		TemplateID:  t.TemplateID,
		CreatedByID: t.CreatedByID,
		TimeOfDay:   t.TimeOfDay,
		Repeat:      t.Repeat,
		Reward:      t.Reward,
		Visibility:  t.Visibility,
		Complexity:  t.Complexity,
		Popularity:  t.Popularity,
		CreatedAt:   t.CreatedAt,
		Assignments: make([]assignmentResponse, 0, len(t.Assignments)),
	}
	if t.Category != nil {
		category := toCategoryResponse(t.Category)
		out.Category = &category
	}
	if t.Template != nil {
		template := toTemplateResponse(t.Template)
		out.Template = &template
	}
	for i := range t.Assignments {
		a := &t.Assignments[i]
		resp := assignmentResponse{ID: a.ID, MemberID: a.FamilyMemberID}
		if a.Member != nil {
			member := memberResponse{
				ID:     a.Member.ID,
				UserID: a.Member.UserID,
				Role:   a.Member.Role,
			}
			if a.Member.User != nil {
				member.Name = a.Member.User.Name
				member.AvatarURL = a.Member.User.AvatarURL
			}
			resp.Member = &member
		}
		out.Assignments = append(out.Assignments, resp)
	}
	return out
}
