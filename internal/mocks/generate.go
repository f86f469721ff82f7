package mocks

//go:generate mockery --name DocumentStore --srcpkg github.com/aevon-lab/download-stats/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
//go:generate mockery --name Source --srcpkg github.com/aevon-lab/download-stats/internal/core/downloads --output ./downloads --outpkg downloadsmocks --with-expecter
