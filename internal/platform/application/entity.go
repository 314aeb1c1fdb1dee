package application

import "time"

// Collection names
const (
	CollectionName         = "applications"
	InstanceCollectionName = "application_instances"
)

// Application is a tool made available inside a View.
type Application struct {
	ID         string    `bson:"_id" json:"id"`
	Name       string    `bson:"name" json:"name"`
	ViewID     string    `bson:"viewId" json:"viewId"`
	URL        string    `bson:"url,omitempty" json:"url,omitempty"`
	Icon       string    `bson:"icon,omitempty" json:"icon,omitempty"`
	Embeddable bool      `bson:"embeddable" json:"embeddable"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (a *Application) AggregateID() string    { return a.ID }
func (a *Application) CollectionName() string { return CollectionName }
func (a *Application) AggregateType() string  { return "application" }

// Instance places an Application on one Team's launcher.
type Instance struct {
	ID            string    `bson:"_id" json:"id"`
	TeamID        string    `bson:"teamId" json:"teamId"`
	ApplicationID string    `bson:"applicationId" json:"applicationId"`
	DisplayOrder  int       `bson:"displayOrder" json:"displayOrder"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
}

func (i *Instance) AggregateID() string    { return i.ID }
func (i *Instance) CollectionName() string { return InstanceCollectionName }
func (i *Instance) AggregateType() string  { return "applicationinstance" }
