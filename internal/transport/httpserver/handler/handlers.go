package handler

import (
	aptdomain "lawpages-go/internal/domain/appointment"
	clientdomain "lawpages-go/internal/domain/client"
	collabdomain "lawpages-go/internal/domain/collaboration"
	findomain "lawpages-go/internal/domain/finance"
	pagedomain "lawpages-go/internal/domain/page"
	"lawpages-go/pkg/logger"
)

type Handlers struct {
	Pages          *pagedomain.Service
	Collaborations *collabdomain.Service
	Clients        *clientdomain.Service
	Appointments   *aptdomain.Service
	Finance        *findomain.Service
	log            logger.Logger
}

func New(
	pages *pagedomain.Service,
	collaborations *collabdomain.Service,
	clients *clientdomain.Service,
	appointments *aptdomain.Service,
	finance *findomain.Service,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		Pages:          pages,
		Collaborations: collaborations,
		Clients:        clients,
		Appointments:   appointments,
		Finance:        finance,
		log:            log,
	}
}
