package event

import (
	"fmt"

	"github.com/AndrewHnidets/demo-repositories/internal/logger"
	"github.com/AndrewHnidets/demo-repositories/internal/model"
	"gorm.io/gorm"
)

// ProjectProcessor reacts to project lifecycle events. Delivery (mail, push)
// is out of scope; subscribers are resolved and the notification is logged.
type ProjectProcessor struct {
	db *gorm.DB
}

func NewProjectProcessor(db *gorm.DB) *ProjectProcessor {
	return &ProjectProcessor{db: db}
}

// Register subscribes the processor on the dispatcher.
func (p *ProjectProcessor) Register(d *Dispatcher) {
	d.Subscribe(ProjectCreatedName, p.handleCreated)
	d.Subscribe(ProjectUpdatedName, p.handleUpdated)
}

func (p *ProjectProcessor) handleCreated(evt Event) error {
	created, ok := evt.(ProjectCreated)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", evt.Name())
	}
	logger.Info("Project %d (%s) published", created.Project.ID, created.Project.Slug)
	return nil
}

func (p *ProjectProcessor) handleUpdated(evt Event) error {
	updated, ok := evt.(ProjectUpdated)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", evt.Name())
	}

	subscribers, err := p.subscribedUsers(updated.Project)
	if err != nil {
		return err
	}
	for _, user := range subscribers {
		logger.Info("Notifying user %d: project %d (%s) updated",
			user.ID, updated.Project.ID, updated.Project.Slug)
	}
	return nil
}

// subscribedUsers returns everyone besides the owner sitting in an accepted
// chat room of the project.
func (p *ProjectProcessor) subscribedUsers(project *model.Project) ([]model.User, error) {
	var users []model.User
	err := p.db.
		Where(`EXISTS (
			SELECT 1 FROM chat_user_room
			JOIN chat_room ON chat_room.id = chat_user_room.room_id
			WHERE chat_user_room.user_id = "user".id
			  AND chat_room.relation_type = ?
			  AND chat_room.relation_id = ?
			  AND EXISTS (
				SELECT 1 FROM chat_message
				WHERE chat_message.room_id = chat_room.id
				  AND chat_message.type_id = ?
				  AND chat_message.is_accepted = 1
			  )
		)`, model.ChatRelationProject, project.ID, model.ChatMessageTypeRequest).
		Where("id != ?", project.UserID).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load project subscribers: %w", err)
	}
	return users, nil
}
