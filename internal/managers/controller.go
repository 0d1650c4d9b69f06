package managers

import (
	"context"
	"fmt"
	"sync"

	"github.com/chrissnell/calorimetry/internal/controllers/restserver"
	"github.com/chrissnell/calorimetry/pkg/config"
	"go.uber.org/zap"
)

// ControllerManager interface for the controller manager
type ControllerManager interface {
	StartControllers() error
}

// Controller is an interface that provides standard methods for the serving front ends
type Controller interface {
	StartController() error
}

// NewControllerManager creates a new controller manager
func NewControllerManager(ctx context.Context, wg *sync.WaitGroup, c *config.ConfigData, logger *zap.SugaredLogger) (ControllerManager, error) {
	cm := &controllerManager{
		ctx:    ctx,
		wg:     wg,
		config: c,
		logger: logger,
	}

	rest, err := restserver.NewController(ctx, wg, c, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating REST server controller: %v", err)
	}
	cm.controllers = append(cm.controllers, rest)

	return cm, nil
}

type controllerManager struct {
	ctx         context.Context
	wg          *sync.WaitGroup
	config      *config.ConfigData
	logger      *zap.SugaredLogger
	controllers []Controller
}

func (c *controllerManager) StartControllers() error {
	c.logger.Info("Starting controller manager...")

	for _, controller := range c.controllers {
		err := controller.StartController()
		if err != nil {
			return fmt.Errorf("error starting controller: %v", err)
		}
	}

	c.logger.Infof("Started %d controllers successfully", len(c.controllers))
	return nil
}
